package generator

// seedToPtrInt32 は domain の *int64 を SDK 用の *int32 に変換するのだ。
// int32 の範囲を超える値は上位ビットが切り捨てられるけど、再現性には影響しないのだ。
func seedToPtrInt32(s *int64) *int32 {
	if s == nil {
		return nil
	}
	v := int32(*s)
	return &v
}

// dereferenceSeed は *int64 を安全に int64 に変換するのだ。
// nil の場合はデフォルト値（0）を返すのだよ。
func dereferenceSeed(s *int64) int64 {
	if s == nil {
		return 0
	}
	return *s
}
