// Package dusort computes the apparent disk usage of every immediate entry
// of a directory and renders it as a sorted, human-readable report.
//
// Subdirectories are sized recursively, either with a sequential
// depth-first walker or with fastwalk for parallel traversal. Symbolic
// links are never followed. Failures on individual nodes are collected as
// ScanErrors next to the sizes instead of aborting the scan.
package dusort
