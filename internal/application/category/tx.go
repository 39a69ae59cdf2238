package category

import "context"

// TxManager 事务边界抽象
// 由mysql.TxManager实现;用例依赖接口,测试时可注入直通实现
type TxManager interface {
	// Transaction 在一个事务内执行fn:返回error回滚,返回nil提交
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
