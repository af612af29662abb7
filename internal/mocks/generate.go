package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MatchSource --dir ../usecase --output usecase --outpkg usecasemock --filename match_source_mock.go
