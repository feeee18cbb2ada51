package org

import "errors"

var (
	ErrSettingNotFound = errors.New("app setting not found")
)
