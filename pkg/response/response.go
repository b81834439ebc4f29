package response

// Response is the envelope every JSON endpoint returns. Success carries Data,
// failure carries Error; Code mirrors the HTTP status so websocket and logged
// copies of a payload stay self-describing.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(statusCode int, data interface{}) Response {
	return Response{
		Success: true,
		Code:    statusCode,
		Data:    data,
	}
}

func Error(statusCode int, msg string) Response {
	return Response{
		Success: false,
		Code:    statusCode,
		Error:   msg,
	}
}
