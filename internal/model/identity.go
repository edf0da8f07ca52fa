package model

// Identity 外部提供的呼叫者身份，核心只做相等比較，不解讀其內容
type Identity string

func (i Identity) IsZero() bool {
	return i == ""
}
