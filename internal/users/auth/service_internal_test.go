// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package auth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestNotifySessionInvalid_SetStaysBounded drives more distinct rejected
tokens through the notification path than the dedup set may hold and checks
that the set never grows past its cap while every new token still fires.
*/
func TestNotifySessionInvalid_SetStaysBounded(t *testing.T) {
	service := NewService(nil, nil, "")

	fired := 0
	service.SetSessionInvalidHook(func(string) { fired++ })

	total := notifiedCap + 10
	for i := 0; i < total; i++ {
		service.notifySessionInvalid(fmt.Sprintf("token-%d", i))
	}

	assert.Equal(t, total, fired)
	assert.LessOrEqual(t, len(service.notified), notifiedCap)

	// Within one window the dedup still holds.
	last := fmt.Sprintf("token-%d", total-1)
	service.notifySessionInvalid(last)
	assert.Equal(t, total, fired)
}
