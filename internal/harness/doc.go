// Package harness runs conformance scenarios against both engines.
//
// A scenario names a machine document, an optional start path and a list of
// inputs. Every input is fired at a composite engine and at a table engine
// compiled from the same document; the two responses must agree, and each
// step may also pin the expected result, path and hook calls.
//
// # Scenario Format
//
//	name: kiosk_public_session
//	description: "Public session returns to login on logout"
//	machine: ../machines/kiosk.yaml
//	start: Login
//	steps:
//	  - input: Public
//	    expect:
//	      result: Transitioned
//	      path: PublicPhotoSession/Welcome
//	      hooks:
//	        - exit Login
//	        - enter PublicPhotoSession
//	        - enter PublicPhotoSession/Welcome
//	  - input: Logout
//	assertions:
//	  - type: final_path
//	    path: Login
//	  - type: visit_order
//	    paths: [PublicPhotoSession/Welcome, Login]
//
// The machine path is resolved relative to the scenario file.
//
// # Assertion Types
//
//   - visits: a step ended at path
//   - visit_order: paths were reached in this order (gaps allowed)
//   - visit_count: path was reached exactly count times
//   - final_path: the machine ended at path
//
// # Deterministic Testing
//
// Step numbers come from testutil.DeterministicClock, so traces are
// reproducible and can be compared against golden files.
package harness
