// idlescan - AWS idle resource audit
// Scan. Report. Done.
package main

func main() {
	Execute()
}
