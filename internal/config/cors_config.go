package config

import "strings"

type Cors struct{}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

const allOrigins = "*"

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	if _, ok := a[allOrigins]; ok {
		return true
	}
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

// The storefront runs on a different origin than the API, so CORS is wide
// open unless ALLOWED_ORIGINS narrows it.
func (Cors) GetAllowedOrigins() AllowedOrigins {
	configured := GetEnv("ALLOWED_ORIGINS", allOrigins)
	origins := AllowedOrigins{}
	for _, origin := range strings.Split(configured, ",") {
		origins[strings.TrimSpace(origin)] = nullValue{}
	}
	return origins
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, PUT, PATCH, DELETE"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization, X-Secret-Key"
}
