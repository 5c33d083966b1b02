package main

import "github.com/redactyl/drcscan/cmd/drcscan"

func main() { drcscan.Execute() }
