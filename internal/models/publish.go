package models

// PublishResult locates a file written to the content repository.
type PublishResult struct {
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
	Path        string `json:"path"`
}

// ContentFile is a file read back from the content repository.
type ContentFile struct {
	Name    string
	Path    string
	Content []byte
}
