// Package log provides simple leveled logging for level-maker.
//
// Messages are written with a timestamp and a colored level tag:
//
//	12:04:05 [INF] Saved: /home/user/level-maker/levels/level_05.json
//
// Levels are DEBUG (only in verbose mode), INFO, WARN and ERROR. Errors go to
// stderr, everything else to stdout unless SetForceStdErr is used.
//
//	log.SetVerbose(true)
//	log.Debugf("Parsed %d level files", n)
//	log.Warnf("Skipping corrupt level file %s: %v", name, err)
//
// All functions are safe for concurrent use.
package log
