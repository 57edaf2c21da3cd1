package mocks

//go:generate mockery --name Source --srcpkg github.com/aevon-lab/toppick/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
