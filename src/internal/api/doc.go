// Package api provides the HTTP interface of the level editor server.
//
// Endpoints:
//
//	GET    /api/levels       summaries of all levels: [{id, name, width, height, filename}]
//	GET    /api/levels/{id}  the stored level file, verbatim
//	POST   /api/levels       save a level document: {"success": true, "filename": "level_05.json"}
//	DELETE /api/levels/{id}  delete a level: {"success": true}
//	OPTIONS *                CORS preflight, always 200
//
// Any other GET request is served from the static root directory.
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "not_found",
//	    "message": "Level not found"
//	  }
//	}
//
// Every response allows cross-origin access so the editor can be opened from
// a different host or port during development.
package api
