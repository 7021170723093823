// Command arithsim exercises the simulated arithmetic cores from the
// command line.
//
// Usage:
//
//	arithsim div [flags] <n> <d>
//	arithsim mul [flags] <a> <b>
//	arithsim bcd [flags] <x>
//	arithsim bench [flags]
//
// Run 'arithsim --help' for the full flag reference.
package main

func main() {
	Execute()
}
