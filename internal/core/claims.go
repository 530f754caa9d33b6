package core

import "github.com/golang-jwt/jwt/v4"

// Claims 管理端 JWT 內容；Operator 對應儀表板登入者
type Claims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}
