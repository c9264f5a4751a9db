// Package utils provides small filesystem helpers shared by level-maker packages:
// path resolution against a base directory, existence checks and atomic file
// replacement.
package utils
