package schema

// Attachment message attachment
type Attachment struct {
	// ImageURLs attached image urls
	ImageURLs []string `json:"image_url,omitempty"`
}
