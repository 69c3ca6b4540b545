// Package exporter persists pipeline output tables as delimited text files.
package exporter
