// Command sf2kctl exercises the sf2kmem allocator, bulk mover and ROM loader
// from the command line.
package main

func main() {
	execute()
}
