package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// OAuth login flows
	RouteLoginO365      = "/login"
	RouteCallbackO365   = "/auth/callback"
	RouteLoginGoogle    = "/login/google"
	RouteCallbackGoogle = "/auth/google/callback"

	// Accounts
	RouteRegister    = "/register"
	RouteLoginCustom = "/login/custom"
	RouteUser        = "/user"
	RouteUserCode    = "/user/{email}/code"
	RouteActivate    = "/user/code/{code}"

	// Catalog reference data
	RouteCards      = "/cards"
	RouteCategories = "/categories"
	RouteBrands     = "/brands"

	// Products
	RouteProduct        = "/product"
	RouteProductByID    = "/product/{id_product}"
	RouteProducts       = "/products"
	RouteProductsByID   = "/products/{id_product}"
	RouteProductsByUser = "/products/user/{id_user}"
)
