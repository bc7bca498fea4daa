// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers. Every binary in
// this repository uses the same main shape:
//
//	func main() {
//		if err := run(); err != nil {
//			process.Fatal(err)
//		}
//	}
package process
