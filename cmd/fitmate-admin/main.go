// Command fitmate-admin trains the fit model and runs the classifier and
// predictor from the command line.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
