package server

// Данный сервер просто объединяет специфичные HTTP сервера, отвечающие за обработку конкретных сущностей
// Сейчас у нас есть только ProductServer, но их может быть несколько
type Server struct {
	ProductServer
}

func NewServer(
	productServer ProductServer,
) Server {
	return Server{
		ProductServer: productServer,
	}
}
