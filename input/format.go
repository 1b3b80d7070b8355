// Package input implements idealloc's external job-set formats: the
// minimalloc benchmark CSV, IREE's inclusive-ended variant of it, and a
// native fixed-width binary format. Each satisfies Parser so the CLI can
// dispatch on a single Format flag.
package input

import "fmt"

// Format names one of idealloc's supported input encodings.
type Format int

const (
	// ExCSV is the minimalloc benchmark CSV, exclusive-exclusive endpoints.
	ExCSV Format = iota
	// InExCSV is IREE's CSV variant: start-inclusive, end-exclusive.
	InExCSV
	// InCSV is IREE's CSV variant: inclusive-inclusive.
	InCSV
	// PLC is idealloc's native fixed-width binary format.
	PLC
	// TRC is a Linux-trace-derived binary format. idealloc cannot read it
	// directly — it must first be converted to PLC by an external tool —
	// so ReadFromPath rejects it explicitly rather than failing obscurely.
	TRC
)

func (f Format) String() string {
	switch f {
	case ExCSV:
		return "ex-csv"
	case InExCSV:
		return "in-ex-csv"
	case InCSV:
		return "in-csv"
	case PLC:
		return "plc"
	case TRC:
		return "trc"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a CLI-facing string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ex-csv":
		return ExCSV, nil
	case "in-ex-csv":
		return InExCSV, nil
	case "in-csv":
		return InCSV, nil
	case "plc":
		return PLC, nil
	case "trc":
		return TRC, nil
	default:
		return 0, fmt.Errorf("input: unrecognized format %q", s)
	}
}
