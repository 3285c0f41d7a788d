// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model nedir?
// Veritabanındaki bir tablonun Go karşılığıdır.
// Aynı zamanda API'den gelen/giden verilerin şeklini de belirler.
//
// Go'da `json:"username"` gibi tag'ler, struct field'larının JSON'a
// nasıl serialize/deserialize edileceğini belirler.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// AccountStatus, kullanıcı hesabının durumunu temsil eder.
// Go'da enum yoktur, bunun yerine typed constant'lar kullanılır.
type AccountStatus string

// İzin verilen AccountStatus değerleri.
const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountDeleted   AccountStatus = "deleted"
)

// Location, kullanıcının adres bilgisi. Tüm alanlar opsiyonel.
type Location struct {
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
	Zipcode  string `json:"zipcode,omitempty"`
	Landmark string `json:"landmark,omitempty"`
}

// User, bir marketplace kullanıcısını temsil eder.
// JSON tag'leri API response'larında kullanılır.
type User struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Email         string        `json:"email"`
	Name          *string       `json:"name"` // *string = nullable — Go'da nil olabilir
	PasswordHash  string        `json:"-"`    // json:"-" → API response'a DAHİL ETME (güvenlik!)
	ContactNumber *string       `json:"contact_number"`
	AvatarURL     *string       `json:"avatar_url"`
	Bio           *string       `json:"bio"`
	Location      *Location     `json:"location"`
	AccountStatus AccountStatus `json:"account_status"`
	ResponseTime  string        `json:"response_time"`
	Rating        float64       `json:"rating"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// emailRegex, basit email format kontrolü.
// RFC 5322'nin tamamını kapsamaz — pratikte yeterli olan kontrol.
var emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// EmailRegex, diğer paketlerin aynı kontrolü kullanabilmesi için.
func EmailRegex() *regexp.Regexp {
	return emailRegex
}

// SignUpRequest, kayıt olurken frontend'den gelen veri.
// PasswordHash yerine Password alırız — hash'leme service katmanında yapılır.
type SignUpRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
	ContactNumber string `json:"contactNumber"`
}

// Validate, SignUpRequest'in geçerli olup olmadığını kontrol eder.
// Kurallar:
//   - Username: 3-30 karakter, alfanumerik + alt çizgi
//   - Email: geçerli format
//   - Password: minimum 6 karakter
func (r *SignUpRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	usernameLen := utf8.RuneCountInString(r.Username)
	if usernameLen < 3 || usernameLen > 30 {
		return fmt.Errorf("username must be between 3 and 30 characters")
	}
	for _, ch := range r.Username {
		if !isValidUsernameChar(ch) {
			return fmt.Errorf("username can only contain letters, numbers, and underscores")
		}
	}

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("please provide a valid email address")
	}

	if utf8.RuneCountInString(r.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	return nil
}

// SignInRequest, giriş yaparken frontend'den gelen veri.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, SignInRequest'in geçerli olup olmadığını kontrol eder.
func (r *SignInRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// UpdateUserRequest, profil güncellemesi için.
// Multipart form'dan parse edilir — tüm alanlar opsiyoneldir,
// nil olanlar güncellenmez (partial update).
type UpdateUserRequest struct {
	Name          *string
	Username      *string
	Password      *string
	ContactNumber *string
	Bio           *string
	Location      *Location
	ResponseTime  *string
	AvatarURL     *string
}

// Validate, dolu gelen alanları kontrol eder.
func (r *UpdateUserRequest) Validate() error {
	if r.Username != nil {
		u := strings.TrimSpace(*r.Username)
		l := utf8.RuneCountInString(u)
		if l < 3 || l > 30 {
			return fmt.Errorf("username must be between 3 and 30 characters")
		}
		for _, ch := range u {
			if !isValidUsernameChar(ch) {
				return fmt.Errorf("username can only contain letters, numbers, and underscores")
			}
		}
		*r.Username = u
	}
	if r.Password != nil && utf8.RuneCountInString(*r.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if r.Bio != nil && utf8.RuneCountInString(*r.Bio) > 500 {
		return fmt.Errorf("bio cannot exceed 500 characters")
	}
	return nil
}

// isValidUsernameChar, username'de izin verilen karakterleri kontrol eder.
func isValidUsernameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_'
}
