package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "octa-bazi-api/pkg/errors"
)

// FromError 将应用错误转换为统一错误响应
//
// 未识别的错误按 500 处理；5xx 不向客户端暴露底层错误。
func FromError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	detail := &ErrorDetail{ErrorCode: string(appErr.Code)}
	if status < http.StatusInternalServerError {
		detail.Details = appErr.Detail
	}

	ErrorWithDetail(c, status, appErr.Message, detail)
}
