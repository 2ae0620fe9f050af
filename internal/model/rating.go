package model

import "math"

// RoundTo 四舍五入到指定小数位（远离零方向，避免平台相关的浮点行为）
func RoundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// OverallRating 综合评分 = 四项子评分的算术平均值，保留一位小数
// 派生字段 rating_global 只能由该函数计算，避免存储值与真实值漂移
func OverallRating(scenario, visual, music, acting float64) float64 {
	return RoundTo((scenario+visual+music+acting)/4, 1)
}
