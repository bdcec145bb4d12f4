package domain

// CartItem — строка корзины: товар вместе с накопленным количеством.
// Количество всегда > 0; строка с нулевым количеством не хранится.
type CartItem struct {
	Product Product
	Qty     int32
}
