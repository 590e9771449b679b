package dto

type ConnectURLResponse struct {
	URL string `json:"url"`
}

type MetaCallbackRequest struct {
	Code  string `form:"code" binding:"required"`
	State string `form:"state" binding:"required"`
}
