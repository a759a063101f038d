// Package configstore persists the toolbelt configuration (base branch and git provider) as a JSON document.
package configstore
