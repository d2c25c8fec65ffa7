// Package diagfmt renders a diagnostic bag for people (Pretty) and tools (JSON).
package diagfmt
