package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with its user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a low-level error into a code and a user-facing
// message. Sensitive details stay hidden; the message tells the user what
// to do next.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Произошла ошибка сервера",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint errors

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 3. Network errors (CMS, Redis, S3)
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Не удалось связаться с внешним сервисом. Попробуйте позже",
		}
	}

	// 4. Default internal error
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "Этот email уже зарегистрирован",
		}
	}

	if strings.Contains(errLower, "slug") || strings.Contains(errLower, "idx_products_slug") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Товар с таким идентификатором уже существует",
		}
	}

	if strings.Contains(errLower, "number") || strings.Contains(errLower, "idx_orders_number") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Заказ с таким номером уже существует. Попробуйте ещё раз",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Такие данные уже существуют. Попробуйте ещё раз",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Такие данные уже существуют",
	}
}

func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Удаление невозможно: есть связанные данные",
		}
	}

	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Пользователь не найден",
		}
	}
	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "Товар не найден",
		}
	}
	if strings.Contains(errLower, "order_id") || strings.Contains(errLower, "fk_orders") {
		return ErrorInfo{
			Code:    OrderNotFound,
			Message: "Заказ не найден",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Связанные данные не найдены",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Укажите email"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Укажите пароль"}
	}
	if strings.Contains(errLower, "customer_name") || strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "Укажите имя"}
	}
	if strings.Contains(errLower, "customer_phone") || strings.Contains(errLower, "phone") {
		return ErrorInfo{Code: ValidationRequired, Message: "Укажите телефон"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "Заполнены не все обязательные поля",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") || strings.Contains(contextLower, "catalog") {
		return "Товар не найден"
	}
	if strings.Contains(contextLower, "variant") {
		return "Вариант товара не найден"
	}
	if strings.Contains(contextLower, "user") {
		return "Пользователь не найден"
	}
	if strings.Contains(contextLower, "order") {
		return "Заказ не найден"
	}
	if strings.Contains(contextLower, "cart") {
		return "Позиция корзины не найдена"
	}

	return "Данные не найдены"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "checkout") {
		return "Не удалось оформить. Попробуйте позже"
	}
	if strings.Contains(contextLower, "update") {
		return "Не удалось сохранить изменения. Попробуйте позже"
	}
	if strings.Contains(contextLower, "delete") {
		return "Не удалось удалить. Попробуйте позже"
	}
	if strings.Contains(contextLower, "sync") {
		return "Не удалось обновить каталог. Попробуйте позже"
	}

	return "Произошла ошибка сервера. Попробуйте позже"
}

// ParseAndRespond parses the error and writes the standard error payload.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
