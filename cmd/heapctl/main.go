// Command heapctl boots a simulated machine with a kernel heap, runs
// allocation workloads against it, and dumps allocator state.
package main

func main() {
	execute()
}
