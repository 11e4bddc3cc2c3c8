// Command bigmedicine is the command-line front end of the medicine
// reservation service: client commands, the server runner and the dataset
// tooling.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
