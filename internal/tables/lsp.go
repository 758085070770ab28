package tables

// LSPCoefs is the number of line spectral pair values per envelope.
const LSPCoefs = 10

// LSPIndexBits returns the width of the codebook index for LSP value i.
// The first and the last two values use 3 bits, the rest 4.
func LSPIndexBits(i int) uint {
	if i == 0 || i >= 8 {
		return 3
	}
	return 4
}

// LSPCodebook holds 2*cos(w) for each LSP value and index. Rows with
// 3-bit indices use the first 8 entries.
var LSPCodebook = [LSPCoefs][16]float32{
	{
		1.97537668, 1.96255914, 1.94709568, 1.92900714, 1.90831791, 1.88505589, 1.85925243, 1.83094233,
	},
	{
		1.80721468, 1.79226929, 1.77679763, 1.76080424, 1.74429382, 1.72727121, 1.70974142, 1.69170960,
		1.67318102, 1.65416115, 1.63465556, 1.61466997, 1.59421027, 1.57328245, 1.55189266, 1.53004718,
	},
	{
		1.49264290, 1.46961397, 1.44615351, 1.42226842, 1.39796569, 1.37325248, 1.34813604, 1.32262373,
		1.29672306, 1.27044162, 1.24378715, 1.21676745, 1.18939047, 1.16166424, 1.13359691, 1.10519672,
	},
	{
		1.05714606, 1.02789926, 0.99835064, 0.96850886, 0.93838270, 0.90798100, 0.87731268, 0.84638676,
		0.81521230, 0.78379848, 0.75215450, 0.72028966, 0.68821333, 0.65593491, 0.62346388, 0.59080979,
	},
	{
		0.53600554, 0.50291027, 0.46966733, 0.43628648, 0.40277752, 0.36915030, 0.33541467, 0.30158056,
		0.26765790, 0.23365664, 0.19958677, 0.16545829, 0.13128123, 0.09706563, 0.06282152, 0.02855896,
	},
	{
		-0.02855896, -0.06282152, -0.09706563, -0.13128123, -0.16545829, -0.19958677, -0.23365664, -0.26765790,
		-0.30158056, -0.33541467, -0.36915030, -0.40277752, -0.43628648, -0.46966733, -0.50291027, -0.53600554,
	},
	{
		-0.59080979, -0.62346388, -0.65593491, -0.68821333, -0.72028966, -0.75215450, -0.78379848, -0.81521230,
		-0.84638676, -0.87731268, -0.90798100, -0.93838270, -0.96850886, -0.99835064, -1.02789926, -1.05714606,
	},
	{
		-1.10519672, -1.13359691, -1.16166424, -1.18939047, -1.21676745, -1.24378715, -1.27044162, -1.29672306,
		-1.32262373, -1.34813604, -1.37325248, -1.39796569, -1.42226842, -1.44615351, -1.46961397, -1.49264290,
	},
	{
		-1.53004718, -1.57630057, -1.62042878, -1.66237233, -1.70207467, -1.73948227, -1.77454470, -1.80721468,
	},
	{
		-1.83094233, -1.85925243, -1.88505589, -1.90831791, -1.92900714, -1.94709568, -1.96255914, -1.97537668,
	},
}
