// Package cmd implements the kvbridge command line interface.
//
// The CLI is a thin shell around the bridge packages under lib/: the
// seed command writes an engine snapshot file and the inspect command
// group runs the bridge operations against one.
package cmd
