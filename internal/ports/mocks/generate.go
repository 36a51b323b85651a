//go:generate mockgen -source=../order_api.go    -destination=./mock_order_api.go    -package=mocks
//go:generate mockgen -source=../cache.go        -destination=./mock_cache.go        -package=mocks
//go:generate mockgen -source=../identity.go     -destination=./mock_identity.go     -package=mocks
//go:generate mockgen -source=../transport.go    -destination=./mock_transport.go    -package=mocks
//go:generate mockgen -source=../feed_service.go -destination=./mock_feed_service.go -package=mocks

package mocks
