package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Business codes. Transport status is 200 except for plan denials.
const (
	CodeSuccess           = 0
	CodeParamError        = 1000
	CodeAuthFailed        = 1001
	CodePermissionDenied  = 1002
	CodeResourceNotFound  = 1003
	CodePlanRestricted    = 1004
	CodeDuplicateAction   = 1005
	CodeInvalidTransition = 1006
	CodeServerError       = 5000
)

var codeMessages = map[int]string{
	CodeSuccess:           "success",
	CodeParamError:        "invalid parameters",
	CodeAuthFailed:        "authentication failed",
	CodePermissionDenied:  "permission denied",
	CodeResourceNotFound:  "resource not found",
	CodePlanRestricted:    "not available on current plan",
	CodeDuplicateAction:   "duplicate action",
	CodeInvalidTransition: "invalid status transition",
	CodeServerError:       "internal server error",
}

// Response is the envelope of every API reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type PageData struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    interface{} `json:"items"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

func SuccessPage(c *gin.Context, total int64, page, pageSize int, items interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: PageData{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Items:    items,
		},
	})
}

// Error writes a failure envelope; an empty message falls back to the
// default text of the code.
func Error(c *gin.Context, code int, message string) {
	ErrorWithData(c, http.StatusOK, code, message, nil)
}

func ErrorWithData(c *gin.Context, status, code int, message string, data interface{}) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(status, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// PlanError answers with 402 Payment Required. detail is the structured
// denial (code, current plan, upgrade hint) the client renders.
func PlanError(c *gin.Context, message string, detail interface{}) {
	ErrorWithData(c, http.StatusPaymentRequired, CodePlanRestricted, message, detail)
}

func TransitionError(c *gin.Context, message string, detail interface{}) {
	ErrorWithData(c, http.StatusOK, CodeInvalidTransition, message, detail)
}

func DuplicateError(c *gin.Context, message string) {
	Error(c, CodeDuplicateAction, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
