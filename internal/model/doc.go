// Package model defines the persisted types of batchop: variables, parameter
// sets and the single storage document that holds both.
//
// # Operations
//
// A parameter set carries exactly one Operation. Operation is a sealed
// interface with one variant per command kind:
//   - CopyOp: from, to, skip-exist
//   - ModifyJSONOp: from, to, skip-exist, json-path
//
// Only ModifyJSONOp has a JSON path. NewOperation rejects a modify-json
// without one. Decoding is more lenient so that a hand-edited document still
// lists and can be repaired; CheckOperation catches those presets before
// they run.
//
// # Wire format
//
// Documents are JSON with the field names below. Timestamps are Unix
// milliseconds.
//
//	{
//	  "variables": [{"name": "Desktop", "value": "/Users/x/Desktop"}],
//	  "paramSets": [{
//	    "id": "...", "name": "...", "command": "copy",
//	    "params": {"from": "{{Desktop}}/a", "to": "{{Desktop}}/b", "skipExist": true},
//	    "createdAt": 1700000000000, "updatedAt": 1700000000000
//	  }]
//	}
package model
