// Command idealloc assigns byte offsets to a set of jobs with known
// liveness intervals, trading a configurable fragmentation budget for
// allocation speed. See the idealloc package tree for the algorithm.
package main

import "github.com/katalvlaran/idealloc/cmd/idealloc/cmd"

func main() {
	cmd.Execute()
}
