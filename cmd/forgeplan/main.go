// Package main provides the forgeplan CLI for resolving appliance
// descriptions into effective build plans.
package main

func main() {
	Execute()
}
