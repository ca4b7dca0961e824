package tblfill

// A bank statement page: the table boundary (class 1), the header row (class 2) and the first two
// data rows (class 0).
const statementPage = `
1 0.500000 0.480901 0.904915 0.627708
0 0.095890 0.204675 0.093473 0.023945
0 0.187349 0.204105 0.092667 0.020525
0 0.385979 0.202965 0.307816 0.020525
0 0.574940 0.204105 0.073328 0.018244
0 0.663578 0.202965 0.103948 0.025086
0 0.777196 0.204105 0.108783 0.022805
0 0.888799 0.205815 0.112812 0.021665
0 0.093473 0.226340 0.091861 0.021665
0 0.187349 0.226910 0.092667 0.022805
0 0.387994 0.225770 0.303787 0.022805
0 0.575342 0.225200 0.066076 0.023945
0 0.665189 0.227480 0.103948 0.021665
0 0.775181 0.226340 0.112812 0.021665
0 0.890411 0.227480 0.116035 0.023945
2 0.097502 0.177309 0.096696 0.022805
2 0.189766 0.180730 0.091056 0.019384
2 0.390008 0.180160 0.304593 0.025086
2 0.576148 0.178734 0.067687 0.025656
2 0.667607 0.177309 0.107172 0.020525
2 0.777599 0.179019 0.112812 0.022805
2 0.892828 0.180730 0.111201 0.023945
`

// statementGenerated is the number of rows that fit below the second data row of statementPage:
// the first cell of row k has its bottom edge at 0.226340 + k*0.021665 + 0.0108325, which stays
// below the table edge 0.794755 for k <= 25.
const statementGenerated = 25
