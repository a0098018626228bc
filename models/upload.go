package models

type UploadRequest struct {
	Image    string `json:"image" validate:"required"`
	Filename string `json:"filename"`
}

type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int    `json:"size"`
}
