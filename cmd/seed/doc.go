// Package seed implements the `kvbridge seed` command, which writes a
// demo engine snapshot file for the inspect command group to load.
package seed
