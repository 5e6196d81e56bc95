package main

import "github.com/cmmoran/fieldnames/cmd"

func main() {
	cmd.Execute()
}
