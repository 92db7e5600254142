package dto

// PresignUploadRequest 申请预签名上传地址
type PresignUploadRequest struct {
	Kind        string `json:"kind"         binding:"required,upload_kind"`
	TargetID    string `json:"target_id"    binding:"required,uuid"`
	FileName    string `json:"file_name"    binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size"         binding:"required,min=1"`
}

// DeleteUploadRequest 按地址删除对象
type DeleteUploadRequest struct {
	FileURL string `json:"file_url" binding:"required,url"`
}
