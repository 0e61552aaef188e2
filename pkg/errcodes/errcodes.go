package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Конфигурация (fail fast, до любых запросов)
	ConfigurationError failure.ErrorCode = "ConfigurationError"
	UnknownConfigKey   failure.ErrorCode = "UnknownConfigKey"

	// Продукты
	ProductNotFound failure.ErrorCode = "ProductNotFound"
	InvalidUPC      failure.ErrorCode = "InvalidUPC"
	InvalidQuery    failure.ErrorCode = "InvalidQuery" // ни UPC, ни name, ни brand+model

	// Ресерч цен
	FetchFailed       failure.ErrorCode = "FetchFailed"       // транзиентная сетевая ошибка
	SourceUnavailable failure.ErrorCode = "SourceUnavailable" // circuit breaker открыт
	MatchNotFound     failure.ErrorCode = "MatchNotFound"     // ни одно наблюдение не прошло порог
	InsufficientData  failure.ErrorCode = "InsufficientData"  // после фильтров не осталось наблюдений
	NotProfitable     failure.ErrorCode = "NotProfitable"     // маржа не достигается ни при какой ставке
)
