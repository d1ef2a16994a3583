package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"eskimo_admin/internal/session"

	"github.com/shopspring/decimal"
)

// ID is a backend identifier. The backend mixes numeric and string ids, so
// both decode into the same type and numeric ids are encoded back as numbers.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type OrderItem struct {
	ProductID ID              `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Flavors   []string        `json:"flavors,omitempty"`
}

type Order struct {
	ID            ID              `json:"id"`
	Status        string          `json:"status"`
	Store         string          `json:"store"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	Total         decimal.Decimal `json:"total"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	CustomerName  string          `json:"customerName,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Address       string          `json:"address,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Items         []OrderItem     `json:"items,omitempty"`
}

type PaymentStatus struct {
	OrderID ID     `json:"orderId,omitempty"`
	Status  string `json:"status"`
	Synced  bool   `json:"synced"`
}

type Report struct {
	Store       string
	ContentType string
	Data        []byte
}

type Product struct {
	ID            ID              `json:"id,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	CategoryID    ID              `json:"categoryId,omitempty"`
	SubcategoryID ID              `json:"subcategoryId,omitempty"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Active        bool            `json:"active"`
}

type ProductPage struct {
	Items    []Product `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

type Category struct {
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name"`
}

type Subcategory struct {
	ID         ID     `json:"id,omitempty"`
	Name       string `json:"name"`
	CategoryID ID     `json:"categoryId"`
}

type StockEntry struct {
	ProductID   ID     `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Store       string `json:"store"`
	Quantity    int    `json:"quantity"`
}

type Settings struct {
	DeliveryFee      decimal.Decimal `json:"deliveryFee"`
	FreeDeliveryFrom decimal.Decimal `json:"freeDeliveryFrom"`
	DeliveryEnabled  bool            `json:"deliveryEnabled"`
	OpeningHours     string          `json:"openingHours,omitempty"`
}

type PaymentConfig struct {
	Store       string `json:"store"`
	Provider    string `json:"provider"`
	PublicKey   string `json:"publicKey,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	Enabled     bool   `json:"enabled"`
}

type User struct {
	ID          ID                  `json:"id,omitempty"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Password    string              `json:"password,omitempty"`
	Role        string              `json:"role"`
	IsEnabled   bool                `json:"isEnabled"`
	Permissions session.Permissions `json:"permissions"`
}

// ActiveAdmin reports whether the user counts towards the active admins.
func (u User) ActiveAdmin() bool {
	return session.ParseRole(u.Role) == session.RoleAdmin && u.IsEnabled
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	Role        string          `json:"role"`
	Permissions json.RawMessage `json:"permissions"`
}

// LoginResponse accepts both the flat shape and the shape with a nested
// user object.
type LoginResponse struct {
	Token       string          `json:"token"`
	Role        string          `json:"role"`
	Permissions json.RawMessage `json:"permissions"`
	User        *loginUser      `json:"user,omitempty"`
}

func (r LoginResponse) ResolvedRole() string {
	if r.Role == "" && r.User != nil {
		return r.User.Role
	}
	return r.Role
}

func (r LoginResponse) ResolvedPermissions() json.RawMessage {
	if len(r.Permissions) == 0 && r.User != nil {
		return r.User.Permissions
	}
	return r.Permissions
}

type KeepaliveStatus struct {
	Enabled bool `json:"enabled"`
}
