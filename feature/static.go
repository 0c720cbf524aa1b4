// Package feature 提供显式偏好的特征提供方实现:
// 静态内存提供方用于测试与演示,Feast 提供方对接在线特征服务。
package feature

import (
	"context"
	"sync"

	"github.com/rushteam/shoprec/core"
)

// StaticPreferences 是内存态的显式偏好提供方。并发安全。
type StaticPreferences struct {
	mu    sync.RWMutex
	prefs map[string]*core.ExplicitPreferences
}

func NewStaticPreferences() *StaticPreferences {
	return &StaticPreferences{
		prefs: make(map[string]*core.ExplicitPreferences),
	}
}

// Set 设置一个用户的显式偏好。
func (s *StaticPreferences) Set(userID string, prefs *core.ExplicitPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = prefs
}

// GetExplicitPreferences 实现 core.PreferenceStore。无记录时返回空偏好。
func (s *StaticPreferences) GetExplicitPreferences(_ context.Context, userID string) (*core.ExplicitPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.prefs[userID]; ok && p != nil {
		return p, nil
	}
	return &core.ExplicitPreferences{}, nil
}

var _ core.PreferenceStore = (*StaticPreferences)(nil)
