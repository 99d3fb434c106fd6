package main

import "github.com/ayusman/huedetect/internal/cmd"

func main() {
	cmd.Execute()
}
