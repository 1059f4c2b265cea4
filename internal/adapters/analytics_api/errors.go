package analytics_api_client

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

// UpstreamError - ответ апстрима с не-2xx статусом.
// Несет статус и текст, который прислал сервер.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("analytics API returned status %d: %s", e.Status, e.Body)
}

// Категории транспортных сбоев, различимые для пользователя.
const (
	TransportCertificate = "certificate"
	TransportOffline     = "offline"
	TransportNetwork     = "network"
)

// TransportError - транспортный сбой, переклассифицированный в понятную
// пользователю категорию с готовым сообщением.
type TransportError struct {
	Kind    string
	Message string
	cause   error
}

func (e *TransportError) Error() string { return e.Message }
func (e *TransportError) Unwrap() error { return e.cause }

// classifyTransportError переводит транспортную ошибку в категорию.
// Нераспознанные ошибки возвращаются без изменений.
func classifyTransportError(err error) error {
	var certVerify *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var certInvalid x509.CertificateInvalidError
	if errors.As(err, &certVerify) || errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) || errors.As(err, &certInvalid) {
		return &TransportError{
			Kind: TransportCertificate,
			// Известный случай: перехват TLS антивирусом или корпоративным
			// прокси. Подсказка про ручное доверие сертификату сохранена
			// из исходного приложения.
			Message: "ошибка проверки сертификата сервера аналитики; если вы используете антивирус или корпоративную сеть, откройте адрес API в браузере и подтвердите доверие сертификату",
			cause:   err,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &TransportError{
			Kind:    TransportOffline,
			Message: "похоже, нет соединения с интернетом; проверьте сеть и повторите запрос",
			cause:   err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &TransportError{
			Kind:    TransportNetwork,
			Message: "сетевая ошибка при обращении к серверу аналитики; повторите запрос позже",
			cause:   err,
		}
	}

	return err
}
