//go:generate mockgen -source=../session.go -destination=./mock_session.go -package=mocks

package mocks
