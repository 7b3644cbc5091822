package dataset

import "github.com/ppiankov/clausius/internal/model"

// Default returns the built-in water measurements
func Default() *Dataset {
	return &Dataset{
		Name: "water",
		Latent: &Latent{
			InverseT: []float64{
				3425.22e-6, 3322.81e-6, 2919.30e-6, 2887.30e-6, 2838.10e-6, 2811.80e-6,
				2787.50e-6, 2771.20e-6, 2758.20e-6, 2749.10e-6, 2742.40e-6, 2720.70e-6,
			},
			InverseTError: []float64{
				1.2e-6, 1.1e-6, 0.9e-6, 0.8e-6, 0.8e-6, 0.8e-6,
				0.8e-6, 0.8e-6, 0.8e-6, 0.8e-6, 0.8e-6, 0.7e-6,
			},
			LnP: []float64{
				3.25, 3.32, 5.492, 5.644, 5.899, 6.051,
				6.146, 6.228, 6.282, 6.318, 6.349, 6.456,
			},
			LnPError: []float64{
				0.04, 0.04, 0.004, 0.004, 0.003, 0.002,
				0.002, 0.002, 0.002, 0.002, 0.002, 0.002,
			},
		},
		Comparison: &Comparison{
			Temperature:      []float64{18.8, 27.8, 69.4, 73.2, 79.2, 82.5, 85.6, 87.7, 89.4, 90.6, 91.5, 94.4},
			Pressure:         []float64{26, 28, 243, 283, 365, 425, 467, 507, 535, 555, 572, 637},
			TemperatureError: 0.1,
			Reference:        waterReference(),
		},
	}
}

// waterReference is the saturated vapor pressure of water in mmHg, 0–99 °C
func waterReference() []model.Point {
	return []model.Point{
		{X: 0, Y: 4.5851}, {X: 1, Y: 4.9291}, {X: 2, Y: 5.2958}, {X: 3, Y: 5.6864},
		{X: 4, Y: 6.1024}, {X: 5, Y: 6.545}, {X: 6, Y: 7.0159}, {X: 7, Y: 7.5164},
		{X: 8, Y: 8.0482}, {X: 9, Y: 8.6122}, {X: 10, Y: 9.2115}, {X: 11, Y: 9.8476},
		{X: 12, Y: 10.521}, {X: 13, Y: 11.235}, {X: 14, Y: 11.992}, {X: 15, Y: 12.793},
		{X: 16, Y: 13.64}, {X: 17, Y: 14.536}, {X: 18, Y: 15.484}, {X: 19, Y: 16.485},
		{X: 20, Y: 17.542}, {X: 21, Y: 18.659}, {X: 22, Y: 19.837}, {X: 23, Y: 21.08},
		{X: 24, Y: 22.389}, {X: 25, Y: 23.769}, {X: 26, Y: 25.224}, {X: 27, Y: 26.755},
		{X: 28, Y: 28.366}, {X: 29, Y: 30.061}, {X: 30, Y: 31.844}, {X: 31, Y: 33.718},
		{X: 32, Y: 35.686}, {X: 33, Y: 37.754}, {X: 34, Y: 39.925}, {X: 35, Y: 42.204},
		{X: 36, Y: 44.593}, {X: 37, Y: 47.1}, {X: 38, Y: 49.728}, {X: 39, Y: 52.481},
		{X: 40, Y: 55.365}, {X: 41, Y: 58.385}, {X: 42, Y: 61.546}, {X: 43, Y: 64.853},
		{X: 44, Y: 68.312}, {X: 45, Y: 71.929}, {X: 46, Y: 75.711}, {X: 47, Y: 79.657},
		{X: 48, Y: 83.789}, {X: 49, Y: 88.095}, {X: 50, Y: 92.588}, {X: 51, Y: 97.283},
		{X: 52, Y: 102.18}, {X: 53, Y: 107.28}, {X: 54, Y: 112.6}, {X: 55, Y: 118.15},
		{X: 56, Y: 123.93}, {X: 57, Y: 129.94}, {X: 58, Y: 136.2}, {X: 59, Y: 142.72},
		{X: 60, Y: 149.5}, {X: 61, Y: 156.56}, {X: 62, Y: 163.9}, {X: 63, Y: 171.52},
		{X: 64, Y: 179.45}, {X: 65, Y: 187.68}, {X: 66, Y: 196.24}, {X: 67, Y: 205.12},
		{X: 68, Y: 214.34}, {X: 69, Y: 223.91}, {X: 70, Y: 233.84}, {X: 71, Y: 244.14},
		{X: 72, Y: 254.81}, {X: 73, Y: 265.88}, {X: 74, Y: 277.36}, {X: 75, Y: 289.25},
		{X: 76, Y: 301.56}, {X: 77, Y: 314.31}, {X: 78, Y: 327.51}, {X: 79, Y: 341.18},
		{X: 80, Y: 355.33}, {X: 81, Y: 369.96}, {X: 82, Y: 385.1}, {X: 83, Y: 400.74},
		{X: 84, Y: 416.92}, {X: 85, Y: 433.65}, {X: 86, Y: 450.93}, {X: 87, Y: 468.78},
		{X: 88, Y: 487.23}, {X: 89, Y: 506.26}, {X: 90, Y: 525.92}, {X: 91, Y: 546.22},
		{X: 92, Y: 567.25}, {X: 93, Y: 588.75}, {X: 94, Y: 611.04}, {X: 95, Y: 634.02},
		{X: 96, Y: 657.71}, {X: 97, Y: 682.14}, {X: 98, Y: 707.32}, {X: 99, Y: 733.25},
	}
}
