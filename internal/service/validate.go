package service

import "github.com/go-playground/validator/v10"

// validate 服务层共享的校验器（validator 实例可并发使用）
var validate = validator.New()
