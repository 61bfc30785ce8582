// Package main provides the bud CLI entry point.
package main

func main() {
	Execute()
}
