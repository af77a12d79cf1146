package minio

func validateUploadRequest(req *UploadRequest) error {
	if req == nil {
		return NewInvalidInputError("upload request is nil")
	}
	if req.BucketName == "" {
		return NewInvalidInputError("bucket name is required")
	}
	if req.ObjectName == "" {
		return NewInvalidInputError("object name is required")
	}
	if req.Reader == nil {
		return NewInvalidInputError("reader is required")
	}
	if req.Size < 0 {
		return NewInvalidInputError("size must not be negative")
	}
	return nil
}

func validateDownloadRequest(req *DownloadRequest) error {
	if req == nil {
		return NewInvalidInputError("download request is nil")
	}
	if req.BucketName == "" {
		return NewInvalidInputError("bucket name is required")
	}
	if req.ObjectName == "" {
		return NewInvalidInputError("object name is required")
	}
	return nil
}
