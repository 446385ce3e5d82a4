package glyph

// Vowel tables, indexed [case][vowelIndex]. Rows of four run grave, acute,
// circumflex after the bare form; rows advance smooth then rough breathing.
var vowels = [numLetters]*[2][]string{
	Alpha: {
		{
			"\u03b1", "\u1f70", "\u03ac", "\u1fb6",
			"\u1f00", "\u1f02", "\u1f04", "\u1f06",
			"\u1f01", "\u1f03", "\u1f05", "\u1f07",
			"\u1fb3", "\u1fb2", "\u1fb4", "\u1fb7",
			"\u1f80", "\u1f82", "\u1f84", "\u1f86",
			"\u1f81", "\u1f83", "\u1f85", "\u1f87",
		},
		{
			"\u0391", "\u1fba", "\u0386", "\u1fc0\u0391",
			"\u1f08", "\u1f0a", "\u1f0c", "\u1f0e",
			"\u1f09", "\u1f0b", "\u1f0d", "\u1f0f",
			"\u1fbc", "\u1fef\u1fbc", "\u0384\u1fbc", "\u1fc0\u1fbc",
			"\u1f88", "\u1f8a", "\u1f8c", "\u1f8e",
			"\u1f89", "\u1f8b", "\u1f8d", "\u1f8f",
		},
	},
	Epsilon: {
		{
			"\u03b5", "\u1f72", "\u03ad", "\u03b5",
			"\u1f10", "\u1f12", "\u1f14", "\u1f10",
			"\u1f11", "\u1f13", "\u1f15", "\u1f11",
		},
		{
			"\u0395", "\u1fc8", "\u0388", "\u0395",
			"\u1f18", "\u1f1a", "\u1f1c", "\u1f18",
			"\u1f19", "\u1f1b", "\u1f1d", "\u1f19",
		},
	},
	Eta: {
		{
			"\u03b7", "\u1f74", "\u03ae", "\u1fc6",
			"\u1f20", "\u1f22", "\u1f24", "\u1f26",
			"\u1f21", "\u1f23", "\u1f25", "\u1f27",
			"\u1fc3", "\u1fc2", "\u1fc4", "\u1fc7",
			"\u1f90", "\u1f92", "\u1f94", "\u1f96",
			"\u1f91", "\u1f93", "\u1f95", "\u1f97",
		},
		{
			"\u0397", "\u1fca", "\u0389", "\u1fc0\u0397",
			"\u1f28", "\u1f2a", "\u1f2c", "\u1f2e",
			"\u1f29", "\u1f2b", "\u1f2d", "\u1f2f",
			"\u1fcc", "\u1fef\u1fcc", "\u0384\u1fcc", "\u1fc0\u1fcc",
			"\u1f98", "\u1f9a", "\u1f9c", "\u1f9e",
			"\u1f99", "\u1f9b", "\u1f9d", "\u1f9f",
		},
	},
	Iota: {
		{
			"\u03b9", "\u1f76", "\u03af", "\u1fd6",
			"\u1f30", "\u1f32", "\u1f34", "\u1f36",
			"\u1f31", "\u1f33", "\u1f35", "\u1f37",
			"\u03ca", "\u1fd2", "\u0390", "\u1fd7",
			"\u03ca\u1fbd", "\u1fd2\u1fbd", "\u0390\u1fbd", "\u1fd7\u1fbd",
			"\u03ca\u1ffe", "\u1fd2\u1ffe", "\u0390\u1ffe", "\u1fd7\u1ffe",
		},
		{
			"\u0399", "\u1fda", "\u038a", "\u1fc0\u0399",
			"\u1f38", "\u1f3a", "\u1f3c", "\u1f3e",
			"\u1f39", "\u1f3b", "\u1f3d", "\u1f3f",
			"\u03aa", "\u1fef\u03aa", "\u0384\u03aa", "\u1fc0\u03aa",
			"\u03aa\u1fbd", "\u1fef\u03aa\u1fbd", "\u0384\u03aa\u1fbd", "\u1fc0\u03aa\u1fbd",
			"\u1ffe\u03aa", "\u1fdd\u03aa", "\u1fde\u03aa", "\u1fdf\u03aa",
		},
	},
	Omicron: {
		{
			"\u03bf", "\u1f78", "\u03cc", "\u03bf",
			"\u1f40", "\u1f42", "\u1f44", "\u1f40",
			"\u1f41", "\u1f43", "\u1f45", "\u1f41",
		},
		{
			"\u039f", "\u1ff8", "\u038c", "\u039f",
			"\u1f48", "\u1f4a", "\u1f4c", "\u1f48",
			"\u1f49", "\u1f4b", "\u1f4d", "\u1f49",
		},
	},
	Ypsilon: {
		{
			"\u03c5", "\u1f7a", "\u03cd", "\u1fe6",
			"\u1f50", "\u1f52", "\u1f54", "\u1f56",
			"\u1f51", "\u1f53", "\u1f55", "\u1f57",
			"\u03cb", "\u1fe2", "\u03b0", "\u1fe7",
			"\u03cb\u1fbd", "\u1fe2\u1fbd", "\u03b0\u1fbd", "\u1fe7\u1fbd",
			"\u03cb\u1ffe", "\u1fe2\u1ffe", "\u03b0\u1ffe", "\u1fe7\u1ffe",
		},
		{
			"\u03a5", "\u1fea", "\u038e", "\u1fc0\u03a5",
			"\u1fbf\u03a5", "\u1fcd\u03a5", "\u1fce\u03a5", "\u1fcf\u03a5",
			"\u1f59", "\u1f5b", "\u1f5d", "\u1f5f",
			"\u03ab", "\u1fef\u03ab", "\u0384\u03ab", "\u1fc0\u03ab",
			"\u03ab\u1fbd", "\u1fef\u03ab\u1fbd", "\u0384\u03ab\u1fbd", "\u1fc0\u03ab\u1fbd",
			"\u1ffe\u03ab", "\u1fdd\u03ab", "\u1fde\u03ab", "\u1fdf\u03ab",
		},
	},
	Omega: {
		{
			"\u03c9", "\u1f7c", "\u03ce", "\u1ff6",
			"\u1f60", "\u1f62", "\u1f64", "\u1f66",
			"\u1f61", "\u1f63", "\u1f65", "\u1f67",
			"\u1ff3", "\u1ff2", "\u1ff4", "\u1ff7",
			"\u1fa0", "\u1fa2", "\u1fa4", "\u1fa6",
			"\u1fa1", "\u1fa3", "\u1fa5", "\u1fa7",
		},
		{
			"\u03a9", "\u1ffa", "\u038f", "\u1fc0\u03a9",
			"\u1f68", "\u1f6a", "\u1f6c", "\u1f6e",
			"\u1f69", "\u1f6b", "\u1f6d", "\u1f6f",
			"\u1ffc", "\u1fef\u1ffc", "\u0384\u1ffc", "\u1fc0\u1ffc",
			"\u1fa8", "\u1faa", "\u1fac", "\u1fae",
			"\u1fa9", "\u1fab", "\u1fad", "\u1faf",
		},
	},
}

// consonants holds the medial forms, [small, capital].
var consonants = [numLetters][2]string{
	Beta:   {"\u03b2", "\u0392"},
	Gamma:  {"\u03b3", "\u0393"},
	Delta:  {"\u03b4", "\u0394"},
	Zeta:   {"\u03b6", "\u0396"},
	Theta:  {"\u03b8", "\u0398"},
	Kappa:  {"\u03ba", "\u039a"},
	Lambda: {"\u03bb", "\u039b"},
	Mu:     {"\u03bc", "\u039c"},
	Nu:     {"\u03bd", "\u039d"},
	Xi:     {"\u03be", "\u039e"},
	Pi:     {"\u03c0", "\u03a0"},
	Sigma:  {"\u03c3", "\u03a3"},
	Tau:    {"\u03c4", "\u03a4"},
	Phi:    {"\u03c6", "\u03a6"},
	Chi:    {"\u03c7", "\u03a7"},
	Psi:    {"\u03c8", "\u03a8"},
}
