// Package loader reads machine documents written in YAML or CUE and builds
// ir.MachineConfig graphs from them.
//
// A document names its machines and the root to start from:
//
//	root: kiosk
//	machines:
//	  photo:
//	    start: Welcome
//	    states:
//	      - id: Welcome
//	        transitions:
//	          - {input: Continue, next: Capture}
//	      - id: Capture
//	  kiosk:
//	    start: Startup
//	    states:
//	      - id: Startup
//	        sub: photo
//
// Every state naming the same sub machine receives the same
// *ir.MachineConfig, so engines built from the result share one sub-engine.
// Identifiers are normalized to Unicode NFC.
//
// The loader only decodes; structural checks belong to compiler.Validate.
package loader
