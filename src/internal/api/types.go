package api

// SaveLevelResponse is returned by POST /api/levels.
type SaveLevelResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
}

// DeleteLevelResponse is returned by DELETE /api/levels/{id}.
type DeleteLevelResponse struct {
	Success bool `json:"success"`
}
