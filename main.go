package main

import "bucketkit/cmd"

func main() {
	cmd.Execute()
}
