// Package browser opens URLs with the operating system's default handler.
package browser
