// Package components contains the long-running parts of the server.
//
// Each component implements Component and is started and stopped by the
// serve command in order:
//   - APIServer: HTTP server for the level API and the static editor files
//   - LevelWatcher: logs changes made to the levels directory
package components
