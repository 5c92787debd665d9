package core

// errors.go maps technical errors to user-facing messages with support
// codes. Patterns are matched case-insensitively with strings.Contains;
// the first match wins, so specific patterns come before general ones.
//
// Code ranges:
//
//	FILE001-FILE099 - load path (missing or malformed data file)
//	SAVE001-SAVE099 - save path (write failures, version conflicts)
//	EDIT001-EDIT099 - cell validation while editing
//	SESS001-SESS099 - session and mode errors
//	RATE001         - request throttling
//	ERR000          - fallback for unmatched errors

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with a code for
// support reference.
type UserMessage struct {
	Message string // what happened
	Action  string // what to do about it
	Code    string // support reference code
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Load path (FILE001-FILE002)
	{
		pattern: "data file not found",
		msg: UserMessage{
			Message: "데이터 파일을 찾을 수 없습니다",
			Action:  "DATA_PATH 설정을 확인하거나 seed 도구로 파일을 생성하세요",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid data file",
		msg: UserMessage{
			Message: "데이터 파일을 읽을 수 없습니다",
			Action:  "파일이 올바른 CSV 형식인지 확인하세요",
			Code:    "FILE002",
		},
	},

	// Save path (SAVE001-SAVE002)
	{
		pattern: "data file write failed",
		msg: UserMessage{
			Message: "저장 중 오류가 발생했습니다",
			Action:  "디스크 상태를 확인한 뒤 다시 저장하세요. 수정 내용은 유지됩니다",
			Code:    "SAVE001",
		},
	},
	{
		pattern: "version conflict",
		msg: UserMessage{
			Message: "다른 세션에서 먼저 저장했습니다",
			Action:  "최신 데이터를 다시 불러온 뒤 수정하세요",
			Code:    "SAVE002",
		},
	},

	// Editing validation (EDIT001-EDIT006)
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "날짜 형식이 올바르지 않습니다",
			Action:  "YYYY-MM-DD 형식으로 입력하세요",
			Code:    "EDIT001",
		},
	},
	{
		pattern: "progress out of range",
		msg: UserMessage{
			Message: "진행률은 0에서 100 사이여야 합니다",
			Action:  "0~100 범위의 정수를 입력하세요",
			Code:    "EDIT003",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "숫자 형식이 올바르지 않습니다",
			Action:  "기호 없이 정수만 입력하세요",
			Code:    "EDIT002",
		},
	},
	{
		pattern: "invalid choice",
		msg: UserMessage{
			Message: "허용되지 않는 값입니다",
			Action:  "목록에 있는 값 중 하나를 선택하세요",
			Code:    "EDIT004",
		},
	},
	{
		pattern: "immutable field",
		msg: UserMessage{
			Message: "프로젝트 ID와 프로젝트명은 수정할 수 없습니다",
			Action:  "다른 값이 필요하면 새 행을 추가하세요",
			Code:    "EDIT005",
		},
	},
	{
		pattern: "row not found",
		msg: UserMessage{
			Message: "해당 행을 찾을 수 없습니다",
			Action:  "화면을 새로고침한 뒤 다시 시도하세요",
			Code:    "EDIT006",
		},
	},
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "해당 컬럼을 찾을 수 없습니다",
			Action:  "화면을 새로고침한 뒤 다시 시도하세요",
			Code:    "EDIT006",
		},
	},

	// Session errors (SESS001)
	{
		pattern: "no edit in progress",
		msg: UserMessage{
			Message: "편집 모드가 아닙니다",
			Action:  "편집 모드를 켠 뒤 수정하세요",
			Code:    "SESS001",
		},
	},

	// Rate limiting (RATE001)
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "요청이 너무 많습니다",
			Action:  "잠시 후 다시 시도하세요",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is the ERR000 fallback; check the server logs for the
// original technical error when users report this code.
var defaultMessage = UserMessage{
	Message: "예상치 못한 오류가 발생했습니다",
	Action:  "다시 시도하거나 관리자에게 문의하세요",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a formatted display string:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
