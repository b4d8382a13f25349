package handlers

import "wanderai/internal/middleware"

var messages = map[string]map[string]string{
	"welcome": {
		middleware.LocaleZH: "欢迎使用 WanderAI 后端 API",
		middleware.LocaleEN: "Welcome to WanderAI Backend API",
	},
	"submitted": {
		middleware.LocaleZH: "照片生成任务已提交",
		middleware.LocaleEN: "Photo generation task submitted",
	},
	"queried": {
		middleware.LocaleZH: "查询成功",
		middleware.LocaleEN: "Query succeeded",
	},
	"bad_request": {
		middleware.LocaleZH: "请求参数无效",
		middleware.LocaleEN: "Invalid request",
	},
	"not_configured": {
		middleware.LocaleZH: "生成服务未配置访问密钥",
		middleware.LocaleEN: "Generation service credentials are not configured",
	},
	"upstream_unavailable": {
		middleware.LocaleZH: "生成服务暂时不可用",
		middleware.LocaleEN: "Generation service is unavailable",
	},
	"upstream_timeout": {
		middleware.LocaleZH: "生成服务响应超时",
		middleware.LocaleEN: "Generation service timed out",
	},
	"upstream_bad_response": {
		middleware.LocaleZH: "生成服务返回结果格式不正确",
		middleware.LocaleEN: "Generation service returned an unexpected response",
	},
	"internal": {
		middleware.LocaleZH: "服务器内部错误",
		middleware.LocaleEN: "Internal server error",
	},
}

func localize(locale, key string) string {
	byLocale, ok := messages[key]
	if !ok {
		return key
	}
	if msg, ok := byLocale[locale]; ok {
		return msg
	}
	return byLocale[middleware.LocaleZH]
}
