// Package setup walks the user through creating the toolbelt configuration.
package setup
