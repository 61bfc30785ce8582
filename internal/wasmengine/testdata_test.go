package wasmengine

// testWasmModule is a hand-assembled minimal WASM binary (no wat2wasm
// toolchain available in this environment) exporting two functions used
// across this package's tests:
//
//	add(i32, i32) -> i32   returns the sum of its arguments
//	boom()                 executes an `unreachable` instruction (traps)
var testWasmModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic, version

	// Type section: [(i32,i32)->i32, ()->()]
	0x01, 0x0a, 0x02,
	0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x60, 0x00, 0x00,

	// Function section: func0 uses type0, func1 uses type1
	0x03, 0x03, 0x02, 0x00, 0x01,

	// Export section: "add" -> func0, "boom" -> func1
	0x07, 0x0e, 0x02,
	0x03, 0x61, 0x64, 0x64, 0x00, 0x00,
	0x04, 0x62, 0x6f, 0x6f, 0x6d, 0x00, 0x01,

	// Code section
	0x0a, 0x0d, 0x02,
	0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b, // add: local.get 0; local.get 1; i32.add; end
	0x03, 0x00, 0x00, 0x0b, // boom: unreachable; end
}
